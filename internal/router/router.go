// Package router maps paths to screens and keeps navigation history.
package router

import (
	"fmt"
	"net/url"

	serrors "github.com/tessro/serenade/internal/errors"
)

// Screen identifies a top-level view.
type Screen int

const (
	ScreenLanding Screen = iota
	ScreenPlaylist
	ScreenPlayer
)

func (s Screen) String() string {
	switch s {
	case ScreenLanding:
		return "landing"
	case ScreenPlaylist:
		return "playlist"
	case ScreenPlayer:
		return "player"
	default:
		return "unknown"
	}
}

// Paths for each screen.
const (
	PathLanding  = "/"
	PathPlaylist = "/playlist"
	PathPlayer   = "/song"
)

var routes = map[string]Screen{
	PathLanding:  ScreenLanding,
	PathPlaylist: ScreenPlaylist,
	PathPlayer:   ScreenPlayer,
}

// Route is a resolved location.
type Route struct {
	Path   string
	Screen Screen
	Query  url.Values
}

// String returns the route as a path with query.
func (r Route) String() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Query.Encode()
}

// SongPath returns the player path for a song id.
func SongPath(id string) string {
	return PathPlayer + "?" + url.Values{"id": {id}}.Encode()
}

// Router holds the current route and the history behind it. It is owned
// by the UI loop and is not safe for concurrent use.
type Router struct {
	history []Route
}

// New returns a router positioned at the landing screen.
func New() *Router {
	return &Router{history: []Route{{Path: PathLanding, Screen: ScreenLanding}}}
}

// Parse resolves a path like "/song?id=song-2".
func Parse(path string) (Route, error) {
	u, err := url.Parse(path)
	if err != nil {
		return Route{}, fmt.Errorf("%w: %s", serrors.ErrUnknownRoute, path)
	}
	p := u.Path
	if p == "" {
		p = PathLanding
	}
	screen, ok := routes[p]
	if !ok {
		return Route{}, fmt.Errorf("%w: %s", serrors.ErrUnknownRoute, path)
	}
	return Route{Path: p, Screen: screen, Query: u.Query()}, nil
}

// Navigate pushes path onto the history.
func (r *Router) Navigate(path string) error {
	route, err := Parse(path)
	if err != nil {
		return err
	}
	r.history = append(r.history, route)
	return nil
}

// Replace swaps the current route for path without growing the history.
func (r *Router) Replace(path string) error {
	route, err := Parse(path)
	if err != nil {
		return err
	}
	r.history[len(r.history)-1] = route
	return nil
}

// Back pops the current route. It returns false at the first route.
func (r *Router) Back() bool {
	if len(r.history) <= 1 {
		return false
	}
	r.history = r.history[:len(r.history)-1]
	return true
}

// Current returns the active route.
func (r *Router) Current() Route {
	return r.history[len(r.history)-1]
}

// Previous returns the route Back would return to.
func (r *Router) Previous() (Route, bool) {
	if len(r.history) <= 1 {
		return Route{}, false
	}
	return r.history[len(r.history)-2], true
}

// Screen returns the active screen.
func (r *Router) Screen() Screen {
	return r.Current().Screen
}

// Query returns a query parameter of the active route.
func (r *Router) Query(name string) (string, bool) {
	q := r.Current().Query
	if q == nil || !q.Has(name) {
		return "", false
	}
	return q.Get(name), true
}

// Depth returns the number of routes in the history.
func (r *Router) Depth() int {
	return len(r.history)
}

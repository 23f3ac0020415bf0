package appstate

import (
	"runtime"

	"github.com/google/uuid"

	"github.com/0xLeif/AppState-sub000/internal/util"
)

// Scope identifies one logical storage slot. Two scopes are equivalent iff
// their keys are equal.
type Scope struct {
	Name string
	ID   string
}

func NewScope(name, id string) Scope { return Scope{Name: name, ID: id} }

// Key is the only address into the Store.
func (s Scope) Key() string { return s.Name + "/" + s.ID }

func (s Scope) String() string { return s.Key() }

// Site is a declaration point used to derive anonymous identities.
type Site struct {
	File     string
	Function string
	Line     int
	Column   int
}

func (s Site) Key() string { return util.SiteKey(s.File, s.Function, s.Line, s.Column) }

// Here captures the caller's file, function and line. Go does not expose the
// column, so it is always 0; code generators that know it should build a Site
// literal instead.
func Here() Site {
	pc, file, line, ok := runtime.Caller(1)
	if !ok {
		return Site{}
	}
	s := Site{File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		s.Function = fn.Name()
	}
	return s
}

// SiteScope builds a Scope whose id is derived from site.
func SiteScope(name string, site Site) Scope {
	return Scope{Name: name, ID: site.Key()}
}

// Unique returns a scope with a random id, for throwaway state.
func Unique(name string) Scope {
	return Scope{Name: name, ID: uuid.NewString()}
}

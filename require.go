package appstate

// Require returns the cached T at scope, or a *MissingKeysError when nothing
// of that type is cached there. Only the cache is consulted.
func Require[T any](app *App, scope Scope) (T, error) {
	key := scope.Key()
	v, ok := Get[T](app.store, key)
	if !ok {
		return v, &MissingKeysError{Keys: []string{key}}
	}
	return v, nil
}

// RequireKeys reports every scope with no cached entry.
func (a *App) RequireKeys(scopes ...Scope) error {
	var missing []string
	for _, s := range scopes {
		if _, ok := a.store.Load(s.Key()); !ok {
			missing = append(missing, s.Key())
		}
	}
	if len(missing) > 0 {
		return &MissingKeysError{Keys: missing}
	}
	return nil
}

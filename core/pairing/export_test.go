package pairing

// DropSessionEntry removes a single direction of a session, leaving the table asymmetric.
func (e *Engine) DropSessionEntry(userID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.sessions.partners, userID)
}

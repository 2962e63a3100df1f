package rewrite

import "strings"

const noChanges = "No changes"

// Preview describes what the From and Subject rewrites will produce for cfg.
func Preview(cfg Config) (from, subject string) {
	from, subject = noChanges, noChanges
	if cfg.FromName != "" {
		from = cfg.FromName + " <email@" + DomainMask + ">"
	}
	if strings.TrimSpace(cfg.Subject) != "" {
		subject = cfg.Subject
	}
	return from, subject
}

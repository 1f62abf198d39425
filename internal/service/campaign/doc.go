// Package campaign creates and lists campaigns. Rule documents are
// validated before anything is persisted, the matched audience is resolved
// once at creation time, and the resulting audience size is frozen on the
// campaign record.
package campaign

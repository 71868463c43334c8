// Package observer implements the change bus primitive: a Subject keeps a list
// of attached observers with per-observer interest masks and synchronously
// notifies them of the changes they care about.
//
// Observers are referenced through generational handles issued by a Registry,
// so a subject never calls into an observer that has been released.
package observer

import "github.com/zeusync/changebus/internal/core/changes"

// Observer receives change notifications. A zero mask means the subject is
// being destroyed and must not be queried or detached from afterwards.
type Observer interface {
	OnChange(subject *Subject, changed changes.BitMask)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(subject *Subject, changed changes.BitMask)

func (f ObserverFunc) OnChange(subject *Subject, changed changes.BitMask) {
	f(subject, changed)
}

// Source exposes the changeable state of the object that owns a Subject.
// Get answers with the value associated with a single change flag, or a Null
// value for flags it does not know.
type Source interface {
	Get(bits changes.BitMask) Value
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(bits changes.BitMask) Value

func (f SourceFunc) Get(bits changes.BitMask) Value {
	return f(bits)
}

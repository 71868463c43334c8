// Package link is the mediator through which subjects and observers get
// connected. It guarantees each (subject, observer) pair is attached at most
// once and assigns observer ids.
package link

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/zeusync/changebus/internal/config"
	"github.com/zeusync/changebus/internal/core/changes"
	"github.com/zeusync/changebus/internal/core/observability/log"
	"github.com/zeusync/changebus/internal/core/observer"
)

// Link errors
var (
	ErrAlreadyRegistered = errors.New("object already registered")
	ErrUnknownObject     = errors.New("unknown object")
	ErrSelfLink          = errors.New("object cannot observe itself")
	ErrLinkNotFound      = errors.New("link not found")
	ErrEmptyInterest     = errors.New("link interest is empty")
)

// Object is anything that both exposes a subject and can be attached as an observer.
type Object interface {
	Name() string
	Subject() *observer.Subject
	Handle() observer.Handle
}

// Link describes one attached (subject, observer) pair.
type Link struct {
	ID         string
	Subject    string
	Observer   string
	Interest   changes.BitMask
	ObserverID uint32
}

// Controller owns the name tables of linkable objects and the set of live links.
type Controller struct {
	mu        sync.Mutex
	log       log.Log
	subjects  map[string]*observer.Subject
	observers map[string]observer.Handle
	links     map[uint64][]*Link
	nextID    uint32
}

// NewController creates an empty controller logging through logger.
func NewController(logger log.Log) *Controller {
	return &Controller{
		log:       logger.Named("link"),
		subjects:  make(map[string]*observer.Subject),
		observers: make(map[string]observer.Handle),
		links:     make(map[uint64][]*Link),
	}
}

// RegisterObject makes o available both as a subject and as an observer.
func (c *Controller) RegisterObject(o Object) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := o.Name()
	if _, ok := c.subjects[name]; ok {
		return fmt.Errorf("%w: %q", ErrAlreadyRegistered, name)
	}
	if _, ok := c.observers[name]; ok {
		return fmt.Errorf("%w: %q", ErrAlreadyRegistered, name)
	}
	c.subjects[name] = o.Subject()
	c.observers[name] = o.Handle()
	return nil
}

// RegisterSubject makes a subject-only object available under its name.
func (c *Controller) RegisterSubject(s *observer.Subject) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.subjects[s.Name()]; ok {
		return fmt.Errorf("%w: %q", ErrAlreadyRegistered, s.Name())
	}
	c.subjects[s.Name()] = s
	return nil
}

// RegisterObserver makes an observer-only object available under name.
func (c *Controller) RegisterObserver(name string, h observer.Handle) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.observers[name]; ok {
		return fmt.Errorf("%w: %q", ErrAlreadyRegistered, name)
	}
	c.observers[name] = h
	return nil
}

// CreateObjectLink attaches observerName to subjectName. Linking an already
// linked pair merges interest into the existing link instead of attaching twice.
func (c *Controller) CreateObjectLink(subjectName, observerName string, interest changes.BitMask) (Link, error) {
	if interest == changes.None {
		return Link{}, ErrEmptyInterest
	}
	if subjectName == observerName {
		return Link{}, fmt.Errorf("%w: %q", ErrSelfLink, subjectName)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	subject, ok := c.subjects[subjectName]
	if !ok {
		return Link{}, fmt.Errorf("%w: subject %q", ErrUnknownObject, subjectName)
	}
	handle, ok := c.observers[observerName]
	if !ok {
		return Link{}, fmt.Errorf("%w: observer %q", ErrUnknownObject, observerName)
	}

	key := pairKey(subjectName, observerName)
	if existing := c.findLocked(key, subjectName, observerName); existing != nil {
		if err := subject.UpdateInterestBits(handle, interest); err != nil {
			return Link{}, fmt.Errorf("update link %s -> %s: %w", subjectName, observerName, err)
		}
		existing.Interest |= interest
		c.log.Debug("object link updated",
			log.String("link", existing.ID),
			log.Mask("interest", existing.Interest),
		)
		return *existing, nil
	}

	id := c.nextID
	if err := subject.Attach(handle, interest, id); err != nil {
		return Link{}, fmt.Errorf("link %s -> %s: %w", subjectName, observerName, err)
	}
	c.nextID++

	l := &Link{
		ID:         uuid.NewString(),
		Subject:    subjectName,
		Observer:   observerName,
		Interest:   interest,
		ObserverID: id,
	}
	c.links[key] = append(c.links[key], l)

	c.log.Debug("object link created",
		log.String("link", l.ID),
		log.String("subject", subjectName),
		log.String("observer", observerName),
		log.Mask("interest", interest),
		log.Uint32("observer_id", id),
	)
	return *l, nil
}

// RemoveObjectLink detaches observerName from subjectName.
func (c *Controller) RemoveObjectLink(subjectName, observerName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := pairKey(subjectName, observerName)
	l := c.findLocked(key, subjectName, observerName)
	if l == nil {
		return fmt.Errorf("%w: %s -> %s", ErrLinkNotFound, subjectName, observerName)
	}

	err := c.subjects[subjectName].Detach(c.observers[observerName])
	c.deleteLocked(key, l)
	if err != nil && !errors.Is(err, observer.ErrNotFound) {
		return err
	}

	c.log.Debug("object link removed", log.String("link", l.ID))
	return nil
}

// UnregisterObject drops every link involving name and forgets the object.
// Links where name is the observer are detached from their subjects; links
// where name is the subject are expected to be cleared by the subject's
// PreDestruct.
func (c *Controller) UnregisterObject(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, isSubject := c.subjects[name]
	_, isObserver := c.observers[name]
	if !isSubject && !isObserver {
		return fmt.Errorf("%w: %q", ErrUnknownObject, name)
	}

	var all error
	for key, bucket := range c.links {
		for _, l := range append([]*Link(nil), bucket...) {
			switch name {
			case l.Observer:
				err := c.subjects[l.Subject].Detach(c.observers[l.Observer])
				if err != nil && !errors.Is(err, observer.ErrNotFound) {
					all = errors.Join(all, err)
				}
				c.deleteLocked(key, l)
			case l.Subject:
				c.deleteLocked(key, l)
			}
		}
	}

	delete(c.subjects, name)
	delete(c.observers, name)
	c.log.Debug("object unregistered", log.String("object", name))
	return all
}

// ApplyConfig creates every link declared in cfg.
func (c *Controller) ApplyConfig(cfg *config.Config) error {
	var all error
	for _, lc := range cfg.Links {
		interest, err := lc.InterestMask()
		if err == nil {
			_, err = c.CreateObjectLink(lc.Subject, lc.Observer, interest)
		}
		if err != nil {
			c.log.Warn("object link from config failed",
				log.String("subject", lc.Subject),
				log.String("observer", lc.Observer),
				log.Error(err),
			)
			all = errors.Join(all, err)
		}
	}
	return all
}

// Links returns every live link ordered by observer id.
func (c *Controller) Links() []Link {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Link, 0, len(c.links))
	for _, bucket := range c.links {
		for _, l := range bucket {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ObserverID < out[j].ObserverID })
	return out
}

func (c *Controller) findLocked(key uint64, subjectName, observerName string) *Link {
	for _, l := range c.links[key] {
		if l.Subject == subjectName && l.Observer == observerName {
			return l
		}
	}
	return nil
}

func (c *Controller) deleteLocked(key uint64, target *Link) {
	bucket := c.links[key]
	for i, l := range bucket {
		if l == target {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(c.links, key)
		return
	}
	c.links[key] = bucket
}

func pairKey(subjectName, observerName string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(subjectName)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(observerName)
	return d.Sum64()
}

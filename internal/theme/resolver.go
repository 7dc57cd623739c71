package theme

import "sync"

// Set is the resolved template set for one theme.
type Set struct {
	Theme    ID
	pages    map[PageKind]string
	sections map[SectionKind]string
}

func (s *Set) Page(k PageKind) string {
	if name, ok := s.pages[k]; ok {
		return name
	}
	return GenericPage(k)
}

func (s *Set) Section(k SectionKind) string {
	if name, ok := s.sections[k]; ok {
		return name
	}
	return GenericSection(k)
}

// Resolver memoizes a Set per store. A store's Set is rebuilt only when the
// theme it was built for differs from the store's current theme.
type Resolver struct {
	reg *Registry

	mu      sync.RWMutex
	byStore map[string]*Set
}

func NewResolver(reg *Registry) *Resolver {
	return &Resolver{reg: reg, byStore: map[string]*Set{}}
}

func (r *Resolver) Registry() *Registry { return r.reg }

// ForStore returns the template set for storeID rendered with themeName.
func (r *Resolver) ForStore(storeID, themeName string) *Set {
	id := Parse(themeName)

	r.mu.RLock()
	s, ok := r.byStore[storeID]
	r.mu.RUnlock()
	if ok && s.Theme == id {
		return s
	}

	s = r.build(id)
	r.mu.Lock()
	r.byStore[storeID] = s
	r.mu.Unlock()
	return s
}

// Invalidate drops the memoized set for storeID.
func (r *Resolver) Invalidate(storeID string) {
	r.mu.Lock()
	delete(r.byStore, storeID)
	r.mu.Unlock()
}

func (r *Resolver) build(id ID) *Set {
	s := &Set{
		Theme:    id,
		pages:    make(map[PageKind]string, len(Pages)),
		sections: make(map[SectionKind]string, len(Sections)),
	}
	for _, k := range Pages {
		s.pages[k] = r.reg.Page(k, id)
	}
	for _, k := range Sections {
		s.sections[k] = r.reg.Section(k, id)
	}
	return s
}

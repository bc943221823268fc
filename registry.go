package spatial

import (
	"fmt"
	"slices"
	"sync"

	"github.com/syssam/spatial/schema"
)

// CommandDecoder decodes the payload of the command identified by index.
type CommandDecoder func(index schema.CommandIndex, obj *schema.Object) (Command, error)

// VTable describes one generated component to a Registry.
type VTable struct {
	ID        schema.ComponentID
	Name      string // Qualified component name
	NewData   func() Data
	NewUpdate func() Update
	// DecodeRequest and DecodeResponse are nil for components without commands.
	DecodeRequest  CommandDecoder
	DecodeResponse CommandDecoder
}

func (vt *VTable) validate() error {
	var missing []string
	if vt.Name == "" {
		missing = append(missing, "Name")
	}
	if vt.NewData == nil {
		missing = append(missing, "NewData")
	}
	if vt.NewUpdate == nil {
		missing = append(missing, "NewUpdate")
	}
	if len(missing) > 0 {
		return &RegistrationError{
			Component:   vt.Name,
			ComponentID: vt.ID,
			Message:     fmt.Sprintf("missing %v", missing),
		}
	}
	return nil
}

// Registry maps component ids to their vtables. A component id can be
// registered once; lookups are safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	tables map[schema.ComponentID]*VTable
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tables: make(map[schema.ComponentID]*VTable)}
}

// Register adds the given vtables. Either all of them are registered or,
// on any conflict or invalid vtable, none are.
func (r *Registry) Register(tables ...VTable) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	seen := make(map[schema.ComponentID]string, len(tables))
	for i := range tables {
		vt := &tables[i]
		if err := vt.validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		existing, ok := r.tables[vt.ID]
		switch {
		case ok:
			errs = append(errs, &RegistrationError{Component: vt.Name, ComponentID: vt.ID, Existing: existing.Name})
		case seen[vt.ID] != "":
			errs = append(errs, &RegistrationError{Component: vt.Name, ComponentID: vt.ID, Existing: seen[vt.ID]})
		default:
			seen[vt.ID] = vt.Name
		}
	}
	if err := NewAggregateError(errs...); err != nil {
		return err
	}
	for i := range tables {
		vt := tables[i]
		r.tables[vt.ID] = &vt
	}
	return nil
}

// Lookup returns the vtable registered for id.
func (r *Registry) Lookup(id schema.ComponentID) (*VTable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	vt, ok := r.tables[id]
	return vt, ok
}

// IDs returns the registered component ids in ascending order.
func (r *Registry) IDs() []schema.ComponentID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]schema.ComponentID, 0, len(r.tables))
	for id := range r.tables {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of registered components.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}

func (r *Registry) lookup(id schema.ComponentID) (*VTable, error) {
	vt, ok := r.Lookup(id)
	if !ok {
		return nil, &NotRegisteredError{ComponentID: id}
	}
	return vt, nil
}

// DecodeData decodes a serialized value of component id.
func (r *Registry) DecodeData(id schema.ComponentID, obj *schema.Object) (Data, error) {
	vt, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	d := vt.NewData()
	if err := d.DecodeObject(obj); err != nil {
		return nil, fmt.Errorf("decode %s: %w", vt.Name, err)
	}
	return d, nil
}

// DecodeUpdate decodes a serialized update of component id.
func (r *Registry) DecodeUpdate(id schema.ComponentID, upd *schema.ComponentUpdate) (Update, error) {
	vt, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	u := vt.NewUpdate()
	if err := u.DecodeUpdate(upd); err != nil {
		return nil, fmt.Errorf("decode %s update: %w", vt.Name, err)
	}
	return u, nil
}

// DecodeRequest decodes a command request addressed to component id.
func (r *Registry) DecodeRequest(id schema.ComponentID, index schema.CommandIndex, obj *schema.Object) (Command, error) {
	vt, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	if vt.DecodeRequest == nil {
		return nil, NewUnknownCommandError(vt.Name, vt.ID, CommandRequestKind, index)
	}
	return vt.DecodeRequest(index, obj)
}

// DecodeResponse decodes a command response from component id.
func (r *Registry) DecodeResponse(id schema.ComponentID, index schema.CommandIndex, obj *schema.Object) (Command, error) {
	vt, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	if vt.DecodeResponse == nil {
		return nil, NewUnknownCommandError(vt.Name, vt.ID, CommandResponseKind, index)
	}
	return vt.DecodeResponse(index, obj)
}

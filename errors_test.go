package spatial_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/spatial"
)

func TestUnknownCommandError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := spatial.NewUnknownCommandError("example.Example", 1000, spatial.CommandRequestKind, 7)
		assert.Equal(t, "spatial: unrecognised command request with index 7 in component example.Example (id 1000)", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := spatial.NewUnknownCommandError("example.Example", 1000, spatial.CommandResponseKind, 7)
		assert.True(t, errors.Is(err, spatial.ErrUnknownCommand))
	})

	t.Run("IsUnknownCommand", func(t *testing.T) {
		err := spatial.NewUnknownCommandError("example.Example", 1000, spatial.CommandRequestKind, 2)
		assert.True(t, spatial.IsUnknownCommand(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, spatial.IsUnknownCommand(wrapped))

		// Sentinel error
		assert.True(t, spatial.IsUnknownCommand(spatial.ErrUnknownCommand))

		// Non-matching error
		assert.False(t, spatial.IsUnknownCommand(errors.New("other error")))
		assert.False(t, spatial.IsUnknownCommand(nil))
	})
}

func TestUnknownEnumValueError(t *testing.T) {
	err := spatial.NewUnknownEnumValueError("p.Color", 2)
	assert.Equal(t, "spatial: value 2 is not a member of enum p.Color", err.Error())
	assert.True(t, errors.Is(err, spatial.ErrUnknownEnumValue))
	assert.False(t, errors.Is(err, spatial.ErrUnknownCommand))
}

func TestRegistrationError(t *testing.T) {
	t.Run("conflict", func(t *testing.T) {
		err := &spatial.RegistrationError{Component: "b.Second", ComponentID: 5, Existing: "a.First"}
		assert.Equal(t, "spatial: register b.Second (id 5): id already registered by a.First", err.Error())
		assert.True(t, errors.Is(err, spatial.ErrAlreadyRegistered))
	})

	t.Run("invalid", func(t *testing.T) {
		err := &spatial.RegistrationError{Component: "a.First", ComponentID: 5, Message: "missing [NewData]"}
		assert.Equal(t, "spatial: register a.First (id 5): missing [NewData]", err.Error())
		assert.False(t, errors.Is(err, spatial.ErrAlreadyRegistered))
	})
}

func TestNotRegisteredError(t *testing.T) {
	err := &spatial.NotRegisteredError{ComponentID: 9}
	assert.Equal(t, "spatial: component id 9 not registered", err.Error())
	assert.True(t, spatial.IsNotRegistered(fmt.Errorf("lookup: %w", err)))
	assert.False(t, spatial.IsNotRegistered(nil))
}

func TestAggregateError(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		assert.NoError(t, spatial.NewAggregateError(nil, nil))
	})

	t.Run("single error", func(t *testing.T) {
		single := errors.New("only")
		assert.Equal(t, single, spatial.NewAggregateError(nil, single))
	})

	t.Run("multiple errors", func(t *testing.T) {
		err := spatial.NewAggregateError(errors.New("first"), spatial.ErrNotRegistered)
		assert.Equal(t, "spatial: multiple errors:\n  [1] first\n  [2] spatial: component not registered", err.Error())
		assert.True(t, errors.Is(err, spatial.ErrNotRegistered))
	})
}

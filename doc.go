// Package spatial is the runtime support package for code generated by
// spatialgen.
//
// Generated component types implement [Data] and [Update], and generated
// command variants implement [Command]. Each generated package exposes a
// Register function that adds its components to an explicit [Registry]:
//
//	reg := spatial.NewRegistry()
//	if err := example.Register(reg); err != nil {
//		return err
//	}
//	data, err := reg.DecodeData(example.PositionComponentID, obj)
//
// # Error Handling
//
// Decoding a command with an undeclared index returns an
// [UnknownCommandError]; callers are expected to handle it, since a peer may
// run a different schema version. Decoding an enum with an undeclared value
// panics with an [UnknownEnumValueError].
package spatial

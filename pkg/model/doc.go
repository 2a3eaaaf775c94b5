// Package model defines the field-definition types shared by the editor, the
// submission client, and the preview renderer. A Draft is the mutable,
// in-progress state; a Definition is the snapshot serialized for the
// form-creation service:
//
//	{"Label":"L","multiSelect":false,"defaultValue":"A",
//	 "choices":[{"Choice":"A","_id":"..."}],"order":"NONE"}
//
// OrderMode values travel as "NONE", "ALPHA", and "LENGTH".
package model

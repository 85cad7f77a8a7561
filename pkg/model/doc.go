// Package model holds the résumé form record and the Form state container that
// owns it for one editing session. Scalars and repeatable-group sub-fields are
// tagged with an enumerated Kind that selects their normalizer through static
// lookup tables, so every write is normalized before it is stored. Entries in a
// repeatable group are identified only by position; operations against an
// index that no longer exists fail with ErrIndexOutOfRange instead of touching
// a neighbouring entry. Record values returned by Snapshot are deep copies and
// are safe to hand to exporters while the Form keeps changing.
//
// JSON and YAML tags use the wire keys of the historical generate_pdf payload
// (nome, telefone, formacoes, ...).
package model

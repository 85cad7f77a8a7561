// Package preview turns a record snapshot into display text: month and period
// formatting, completed-years age, the phone mask, the export filename and the
// ordered Document consumed by renderers.
package preview

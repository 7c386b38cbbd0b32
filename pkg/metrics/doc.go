// Package metrics exports guard evaluations to Prometheus through a
// formguard.Hook. Labels carry the guard name, the failing field and the
// error kind, never submitted values.
package metrics

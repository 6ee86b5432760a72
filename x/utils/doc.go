/*
Package utils contains the decorators every loom application stacks in
front of its router: Savepoint isolates the writes of a transaction,
Recovery turns panics into errors, Logging reports every call and
Metrics counts them.
*/
package utils

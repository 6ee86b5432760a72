/*
Package app contains the building blocks of a loom application: the
Router dispatching messages to handlers, the decorator chain, and the
StoreApp and BaseApp types that run transactions against a CommitStore
and answer queries.

The application implements the abci.Application interface so that it
can be driven by a consensus engine, but it is equally usable in process:
escrowd feeds it transactions directly and commits after each one.
*/
package app

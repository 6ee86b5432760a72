/*
Package loom defines the common interfaces that tie together the escrow
ledger: addresses and conditions, the address deriver, messages and
transactions, handlers and decorators, and the key value store
abstraction every extension persists its state in.

Context is passed between the application, decorators and handlers as a
context.Context. loom defines keys for the block height, block time,
chain id and logger; extensions such as x/sigs add their own.

There should exist two functions for every XYZ of type T that we want to
support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ panics if the value was previously set, so lower level modules
cannot overwrite what the application declared.
*/
package loom

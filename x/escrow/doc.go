/*
Package escrow implements a conditional swap of two assets.

The maker opens an escrow by locking an amount of asset A in a vault and
declaring how much of asset B it wants in exchange. Any taker can fulfill
the escrow by paying the declared amount of B to the maker, receiving the
whole vault in return. Until then the maker can cancel and take A back.

The escrow record lives at an address derived from the maker and a seed
the maker picks, so every open escrow can be located from those two
values alone and a seed cannot be reused while its escrow is open. The
vault is the holding account of asset A owned by the record address.
Nobody holds a key for a derived address: funds leave the vault only
with the record's Capability.

Each operation is split in two. A planner checks a request against read
snapshots of the state and returns a Transition, the ordered list of
calls to perform. A Ledger applies those calls. Check runs the planner
only, Deliver runs both.
*/
package escrow

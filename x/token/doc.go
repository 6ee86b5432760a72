/*
Package token implements fungible assets.

A Mint describes an asset: its ticker, the precision amounts are declared
with and the address allowed to issue new supply. Balances live in holding
accounts, one per (mint, owner) pair at the address returned by
AccountAddress, so anybody can find the account of an owner without an
index.

Every transfer is checked: the declared decimals must match the mint, both
accounts must hold the mint and the source owner must authorize the move,
either by signing the transaction or by presenting the capability of a
derived address.
*/
package token

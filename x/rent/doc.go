/*
Package rent keeps the native balance of every address and the storage
deposits that pay for the ledger space an address occupies.

Allocating space debits the payer with the configured deposit and marks
the address as occupied. Releasing it credits the deposit back to
whoever the caller chooses, usually the account owner.
*/
package rent

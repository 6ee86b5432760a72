/*
Package gconf stores the configuration of an extension in the database.

Each extension keeps a single configuration object under the "_c:<pkg>"
key. The object is loaded from the "conf" section of the genesis file
and validated before it is written, so handlers can read it back without
repeating the checks.
*/
package gconf

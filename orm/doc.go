/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
Each bucket contains only one type of model, stored under a primary key
(an address for every bucket in this module), and can be exposed to
clients through the query router.
*/
package orm

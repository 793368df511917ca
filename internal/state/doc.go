/*
State owns the ledger, the single writer of the order and position books.

# Module
  - ledger: applies accepted orders, order fills and position fills in arrival order
  - recover: rebuilds a ledger by replaying the journal

# Source
 1. in-process callers (SubmitOrder, ApplyFill, ApplyPositionFill)
 2. bus queue fed by the Postgres fill store
 3. journal playback on start

# Produce
  - journal records for every applied event
  - snapshots of both books for the report projector

# Sharded
  - none
*/
package state

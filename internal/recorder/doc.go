/*
Recorder keeps the fill journal in an append-only, segmented log.

# Module
  - writer: appends records and rotates segments by size
  - reader: decodes records and verifies their CRC32-C checksum
  - playback: replays every segment in file order

# Source
  - orders and fills applied by the ledger

# Produce
  - journal segments on disk

# Sharded
  - none
*/
package recorder

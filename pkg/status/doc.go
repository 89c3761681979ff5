/*
Package status owns every write the pipeline makes to a view file and keeps
track of what happened to each one.

	     +-----------+
	     |  Manager  |
	     +-----+-----+
	           |
	   +-------+-------+
	   |               |
	+--+----+     +----+-----+
	| Files |     | Progress |
	+-------+     +----------+

💾 Files:
  - ReadFile returns the exact bytes on disk, FileSize their count
  - BackupFile writes <name>.exasol_backup from the bytes that were read, the
    same way WriteFileAtomic does, so the original is only replaced once a
    complete copy exists
  - WriteFileAtomic writes a sibling temp file, syncs it, keeps the original
    permissions and renames it into place
  - RestoreFile puts a backup back and removes it

📈 Progress:
  - TrackFile records one FileInfo per processed file, ListFiles returns them
  - StartOperation / UpdateProgress / FinishOperation report counts through
    the zerolog logger carried in the context
  - FileFormatter decides the wording

🔍 Example:

	mgr := status.New(root)

	content, err := mgr.ReadFile(ctx, "orders.sql")
	backup, err := mgr.BackupFile(ctx, "orders.sql", content)
	err = mgr.WriteFileAtomic(ctx, "orders.sql", rewritten)
*/
package status

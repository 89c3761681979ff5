/*
Package operation runs the batch rewrite of a directory of view definitions.

	+-----------+     +-----------+     +-----------+
	| discover  | --> | transform | --> |  status   |
	| (paths)   |     | (rules)   |     | (backup,  |
	+-----------+     +-----------+     |  write)   |
	                                    +-----+-----+
	                                          |
	                                    +-----+-----+
	                                    |  report   |
	                                    +-----------+

🔄 Flow per file:
 1. Read the file and remember its size
 2. Apply the rule set
 3. Nothing matched: record "No changes needed"
 4. Dry run: record "Would be modified", write nothing
 5. Otherwise: back up (unless suppressed), then replace the file atomically

A failure at any step is recorded on that file's Outcome and the batch moves
on. If the backup cannot be written the original is left alone.

⚡ Concurrency:
Options.Workers > 1 spreads files over a bounded errgroup. Each file is owned
by exactly one worker and outcomes are stored by discovery index, so the
report order never depends on scheduling.

🔍 Example:

	p, err := operation.New(operation.Options{
		Root:       "./views",
		Backup:     true,
		ReportPath: "migration_report.csv",
	})
	summary, err := p.Run(ctx)
*/
package operation

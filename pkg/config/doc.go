/*
Package config loads migration settings from a file next to the views.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	   +--------+------+-----+--------+
	   |        |            |        |
	+--+---+ +--+---+    +---+--+ +---+--+
	| YAML | | JSON |    | HCL  | | TOML |
	+------+ +------+    +------+ +------+

Every parser decodes on top of Default(), so a file only needs the settings
it changes. Unknown keys are rejected in every format.

The first of FileNames found in the working directory is used when no
--config flag is given. Command line flags always win over the file.

🔍 Example (.viewmigrate.yaml):

	root: ./views
	patterns: ["*.sql", "*.ddl"]
	backup: true
	report: reports/migration.csv
	workers: 4
	file_timeout: 30s
	rules:
	  - pattern: '\bNVL2\s*\('
	    replacement: 'IFF_NVL2('
	    description: NVL2 to IFF_NVL2

Extra rules run after the built-in Exasol rules, in file order.
*/
package config

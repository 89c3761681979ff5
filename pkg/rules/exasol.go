// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rules

import "sync"

// 🗺️ Default returns the Exasol to Snowflake view rule set. The set is built
// once per process and shared; callers must not rely on identity.
//
// Rule order is load bearing. Specific forms come before the generic forms
// that would otherwise swallow them (the SYSTIMESTAMP variants of CONVERT_TZ
// before the generic CONVERT_TZ and the bare SYSTIMESTAMP rules, the view
// level comment before the catch-all COMMENT IS cleanup).
var Default = sync.OnceValue(func() *Set {
	return NewSet(
		// syntax
		MustPattern(`\bCREATE\s+FORCE\s+VIEW\s`, `CREATE VIEW `,
			"CREATE FORCE VIEW to CREATE VIEW"),
		MustPattern(`\bCLOSE\s+SCHEMA\s*;`, ``,
			"REMOVE CLOSE SCHEMA statement"),
		MustPattern(`\bOPEN\s+SCHEMA\s+"?[^";]+"?\s*;`, ``,
			"REMOVE OPEN SCHEMA statement"),

		// time operations
		MustPattern(`\bCONVERT_TZ\s*\(\s*SYSTIMESTAMP\s*,\s*DBTIMEZONE\s*,\s*'UTC'\s*\)`,
			`CONVERT_TIMEZONE('UTC', CURRENT_TIMESTAMP())`,
			"CONVERT_TZ with SYSTIMESTAMP and DBTIMEZONE to CONVERT_TIMEZONE"),
		MustPattern(`\bconvert_tz\s*\(\s*current_timestamp\s*,\s*sessiontimezone\s*,\s*'UTC'\s*\)`,
			`CONVERT_TIMEZONE('UTC', CURRENT_TIMESTAMP())`,
			"convert_tz with current_timestamp and sessiontimezone to CONVERT_TIMEZONE"),
		MustPattern(`\bCONVERT_TZ\s*\(\s*(?:LOCAL\.)?(\w+)\s*,\s*('[^']+')\s*,\s*('[^']+')\s*\)`,
			`CONVERT_TIMEZONE($2,$3,$1)`,
			"Generic CONVERT_TZ to CONVERT_TIMEZONE with parameter reordering"),
		MustPattern(`\bTRUNC\s*\(\s*(?:LOCAL\.)?(\w+)\s*\)`,
			`DATE_TRUNC('DAY',$1)`,
			"TRUNC to DATE_TRUNC with DAY parameter"),
		MustPattern(`\bSYSTIMESTAMP\b`, `CURRENT_TIMESTAMP()`,
			"SYSTIMESTAMP to CURRENT_TIMESTAMP()"),

		// encoding spec for VARCHAR
		MustPattern(`\bVARCHAR\s*(\(\s*\d+\s*\))\s*UTF8\b`, `VARCHAR$1`,
			"Remove UTF8 encoding specification from VARCHAR"),

		// column comments
		MustPattern(`(\s+)comment\s+is\s+('[^']+'),`, `${1}COMMENT $2,`,
			"Convert 'comment is' to 'COMMENT'"),
		MustPattern(`\s*,\s*("?\w+"?)\s+comment\s+is\s+('[^']+')`, `, $1 COMMENT $2`,
			"Convert 'comment is' to 'COMMENT' 2"),

		// hashtype casts
		MustPattern(`\bCAST\s*\(\s*('[A-F0-9]+')\s+AS\s+HASHTYPE\s*\)`, `TO_BINARY($1, 'HEX')`,
			"Convert CAST AS HASHTYPE to TO_BINARY with HEX"),

		// LOCAL. references, any case. TRUNC and CONVERT_TZ drop the alias
		// from their own arguments since they run first.
		MustPattern(`\bLOCAL\.`, ``,
			"Remove LOCAL. references (uppercase)"),
		MustPattern(`\blocal\.`, ``,
			"Remove local. references (lowercase)", CaseSensitive()),

		// view comment: Snowflake has no trailing COMMENT IS on CREATE VIEW
		MustPattern(`(?s)\A(\s*(?:--[^\n]*\n\s*)*CREATE\s+(?:OR\s+REPLACE\s+)?VIEW\s+"?([\w$]+)"?\s*\.\s*"?([\w$]+)"?.*?)\s*COMMENT\s+IS\s+('(?:[^']|'')*')\s*;?\s*\z`,
			"${1};\n\nALTER VIEW ${2}.${3} SET COMMENT = ${4};\n",
			"Fixed final comments (ALTER VIEW SET COMMENT)"),
		MustPattern(`\bCOMMENT\s+IS\b`, `COMMENT`,
			"Convert remaining 'COMMENT IS' to 'COMMENT'"),
	)
})

// Package kassza tracks the daily state of a cash register.
//
// For every calendar day it keeps two local files: a state file with the
// current till balance (and optionally the denomination breakdown of the
// drawer) and an append-only JSONL journal with one completed transaction
// per line. The last journal entry can be undone, restoring both files to
// their previous state.
package kassza

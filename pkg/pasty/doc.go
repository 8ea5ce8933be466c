/*
Package pasty defines the snippet record rendered on a pasties page and the
sources that supply them: JSON or YAML data files and a SQLite-backed store.

Every source preserves input order and keeps records with duplicate IDs. IDs
are opaque and never validated.
*/
package pasty

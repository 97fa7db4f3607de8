// Package types defines the entity types, configuration, and standard
// errors for the pitvault storage system: productivity and match-factor
// samples, issue records with photo references, and the backup document
// format exchanged with external tooling.
package types

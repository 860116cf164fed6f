// Package config loads harvester settings from defaults, an optional YAML
// file and the environment, in that order of precedence.
//
// The Supabase store needs SUPABASE_URL and SUPABASE_SERVICE_KEY. The
// postgres store needs DATABASE_URL, and the badger store a directory.
// A missing value is a configuration error reported before anything is
// fetched.
package config

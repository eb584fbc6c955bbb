/*
Package config loads the configuration of the data-access layer from a YAML file, a .env
file and DYNAREPO_* environment variables, in that order, and validates it.
*/
package config

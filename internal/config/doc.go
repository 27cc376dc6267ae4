// Package config loads the server settings with viper from defaults, an
// optional config.yaml and SPELLDECK_-prefixed environment variables, then
// validates them with struct tags before anything else starts.
package config

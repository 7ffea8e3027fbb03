// Package config provides configuration loading, merging, and validation
// facilities for the workshop-qa server and client.
//
// Configuration is assembled from multiple sources in the following priority
// order (earlier sources win for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON or YAML config file
//  4. Built-in defaults
//
// The main entry points are [GetServerConfig] for the store server and
// [GetClientConfig] for the session client.
package config

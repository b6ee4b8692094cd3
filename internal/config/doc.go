// Package config loads the server configuration.
//
// Values are layered in the following order, later layers overriding the
// non-zero fields of earlier ones:
//  1. built-in defaults
//  2. the preset of the selected environment (development, staging,
//     production, testing)
//  3. a .env file and the process environment
//  4. command-line flags
//  5. a JSON config file
//
// The result is validated once and returned by value from
// [GetStructuredConfig]; components receive the parts they need through
// their constructors.
package config

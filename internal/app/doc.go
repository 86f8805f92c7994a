// Package app wires configuration, logging, the sheet source, services,
// middleware, and HTTP routes into a runnable application with graceful
// shutdown.
package app

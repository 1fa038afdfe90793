// Package config loads the reclaimer configuration file.
//
// The configuration file is YAML on the form:
//
//	transforms:
//	  - env
//	config:
//	  monitor:
//	    logLevel: info
//	  retention:
//	    provider: idle
//	    idleTimeout: 10
//	  scheduler:
//	    tickInterval: 60
//	    concurrency: 4
//	  fleet:
//	    initialSize: 3
//
// Transformations listed under 'transforms' are applied to the 'config'
// object in order, before it is validated against ConfigSchema(). A
// transformation replaces objects on the form {$<name>: ...}, e.g. the 'env'
// transformation replaces {$env: VAR} with the value of the environment
// variable VAR. Transformations are registered with Register, typically as an
// import side-effect of a sub-package.
package config

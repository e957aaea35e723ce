// Package santa implements the orchestration core of the santa
// package-manager orchestrator: the source/package data model, the layered
// configuration resolver, the safe command composer, the concurrent
// status/install planner with its bounded cache, the script generator, the
// external-process driver, and the configuration watcher.
//
// santa never installs a package directly on behalf of a caller without
// going through the composer (for sanitization) and either the script
// generator (safe mode) or the process driver (execute mode). The package
// has no knowledge of any specific package manager's actual behavior; it
// only knows how to assemble and optionally run the commands a source
// definition describes.
package santa

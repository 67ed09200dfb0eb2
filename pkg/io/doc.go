// Package io reads and writes normalized lock-file documents.
//
// # Formats
//
// JSON is the canonical encoding. It is what the HTTP API returns, what the
// caches store and what [ReadJSON] reads back:
//
//	{
//	  "ecosystem": "npm",
//	  "ecosystemVersion": "3",
//	  "rawMetadata": {"name": "demo-app"},
//	  "packages": {
//	    "node_modules/lodash": {
//	      "version": "4.17.21",
//	      "resolved": "https://registry.npmjs.org/lodash/-/lodash-4.17.21.tgz",
//	      "integrity": "sha512-...",
//	      "dependencies": {},
//	      "devDependencies": {},
//	      "optionalDependencies": {},
//	      "peerDependencies": {}
//	    }
//	  }
//	}
//
// YAML ([WriteYAML]) uses the same field names and is meant for people
// reading the output; it is not read back.
//
// Package keys are written in sorted order by both encoders, so output for
// the same document is byte-identical between runs.
package io

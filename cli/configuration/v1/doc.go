// Package v1 defines the scenectl configuration file.
//
// The file format is YAML. It must carry the type «scenectl.config/v1»,
// unknown fields are rejected. for example:
//
//	type: scenectl.config/v1
//	indent: 2
//	verify: true
//	validate: true
//	concurrencyLimit: 8
//
// Every setting is optional. Settings given on the command line take precedence.
package v1

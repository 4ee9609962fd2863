// Package config provides configuration parsing for vtree projects.
//
// The configuration is stored in vtree.json, vtree.yaml or vtree.yml at the
// project root. This package handles loading, saving, and validating
// configuration.
//
// # Configuration File Structure
//
//	manifest: components.yaml
//	flatten:
//	  strategy: standard        # or legacy
//	validation:
//	  unknownMembers: error     # or warn
//	  defaultSchemas: [custom-elements]
//	template:
//	  preserveWhitespaces: false
//	  locale: en
//	sources:
//	  dir: templates
//	  s3:
//	    bucket: my-templates
//	    prefix: app/
//	    region: eu-west-1
//	server:
//	  host: localhost
//	  port: 4200
//	metrics:
//	  enabled: true
//	  namespace: vtree
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Strategy:", cfg.Flatten.Strategy)
package config

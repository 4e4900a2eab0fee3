// Package config loads urlstore.json or urlstore.yaml.
//
// # Configuration File Structure
//
//	{
//	  "schema": {
//	    "boolKeys": ["flying", "dancing"],
//	    "numberKeys": ["count", "level"],
//	    "jsonKeys": ["birdlist"],
//	    "rawJsonKeys": []
//	  },
//	  "defaults": {"flying": true},
//	  "encoding": "percent",
//	  "strictNumbers": false,
//	  "server": {
//	    "host": "localhost",
//	    "port": 8080,
//	    "metricsPath": "/metrics"
//	  }
//	}
//
// The same structure in YAML is accepted from urlstore.yaml or urlstore.yml.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	opts, err := cfg.StoreOptions()
package config

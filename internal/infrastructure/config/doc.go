// Package config handles loading and validating Gray Logic Runtime configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables (GLRT_ prefix)
//   - Validation of required fields
//   - Default value handling
//
// Sensitive values (broker credentials, InfluxDB tokens) should be set via
// environment variables rather than the config file.
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Site.Name)
package config

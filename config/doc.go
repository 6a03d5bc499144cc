// Package config loads client application configuration with Viper.
//
// LoadConfig searches for config.yml and .env files next to the service,
// then lets environment variables override file values. Each variable is
// bound under several nested key spellings, so HTTP_BASE_URL reaches
// http.base_url.
//
//	cfg, err := config.Load("billing-worker")
//	if err != nil {
//	    return err
//	}
//	adapter, err := httpclient.New(cfg.HTTP)
package config

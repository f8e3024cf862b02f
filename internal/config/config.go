package config

import "github.com/google/uuid"

type Driver interface {
	Exists() (bool, error)
	Write(cfg Config) error
	Read() (Config, error)
}

func NewStore(driver Driver) (Store, error) {
	exists, err := driver.Exists()
	if err != nil {
		return Store{}, err
	}
	if !exists {
		if err := driver.Write(defaultConfig); err != nil {
			return Store{}, err
		}
	}

	return Store{
		driver: driver,
	}, nil
}

type Store struct {
	driver Driver
}

func (s *Store) GetConfig() (Config, error) {
	return s.driver.Read()
}

func (s *Store) UpdateConfig(fn func(cfg Config) (Config, error)) error {
	cfg, err := s.driver.Read()
	if err != nil {
		return err
	}

	cfg, err = fn(cfg)
	if err != nil {
		return err
	}

	return s.driver.Write(cfg)
}

// Normalize fills in the pieces a hand-written config file may omit:
// output identities, scales and names.
func Normalize(store Store) error {
	return store.UpdateConfig(func(cfg Config) (Config, error) {
		for i := range cfg.Outputs {
			if cfg.Outputs[i].UUID == "" {
				cfg.Outputs[i].UUID = uuid.NewString()
			}
			if cfg.Outputs[i].Scale == 0 {
				cfg.Outputs[i].Scale = 1
			}
		}
		return cfg, nil
	})
}

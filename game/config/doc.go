// Package config manages the named board configurations stored on disk.
//
// Each configuration is a JSON file in the config directory; its file name
// without the extension is the config ID clients pass when creating a
// session:
//
//	{
//	  "name": "Classic",
//	  "description": "Classic 9x9 board with six colors",
//	  "width": 9,
//	  "depth": 9,
//	  "colors": 6,
//	  "enforce_path": false
//	}
//
// Setting enforce_path makes the server reject moves whose target cannot
// be reached through empty cells.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	boardConfig, err := manager.LoadConfig("small")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
package config

package proxybench

import (
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML config file surface.
// CLI flags override anything set here.
type FileConfig struct {
	Backend          string `yaml:"backend"`
	Proxy            string `yaml:"proxy"`
	Host             string `yaml:"host"`
	LargeRequests    int    `yaml:"largeRequests"`
	LargePath        string `yaml:"largePath"`
	Users            int    `yaml:"users"`
	DelayMs          int    `yaml:"delayMs"`
	TrustCacheStatus bool   `yaml:"trustCacheStatus"`
	ChartsDir        string `yaml:"chartsDir"`
	ResultsDB        string `yaml:"resultsDb"`
}

func LoadFileConfig(filename string) (FileConfig, error) {
	var config FileConfig
	configBytes, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = yaml.Unmarshal(configBytes, &config)
	return config, err
}

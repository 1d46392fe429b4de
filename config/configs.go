package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"
)

var MainConfig = DefaultConfig()

type Config struct {
	XMLName    xml.Name `xml:"config"`
	MainRouter string   `xml:"MainRouter"`
	// sqlite | postgres | mysql
	DBType   string `xml:"dbtype"`
	DBPath   string `xml:"dbpath"`
	Dbname   string `xml:"dbname"`
	Host     string `xml:"host"`
	Port     string `xml:"port"`
	Username string `xml:"user"`
	Password string `xml:"password"`
	Download string `xml:"download"`

	CenterLat     float64 `xml:"CenterLat"`
	CenterLon     float64 `xml:"CenterLon"`
	TargetSize    float64 `xml:"TargetSize"`
	Interpolation int     `xml:"Interpolation"`
	SessionTTL    int     `xml:"SessionTTL"`
	MaxSessions   int     `xml:"MaxSessions"`
	LogLevel      string  `xml:"LogLevel"`
}

// DefaultConfig 未提供配置文件时的默认值
func DefaultConfig() Config {
	return Config{
		MainRouter:    ":8426",
		DBType:        "sqlite",
		DBPath:        "trackart.db",
		Download:      "download",
		CenterLat:     54.904643,
		CenterLon:     23.957831,
		TargetSize:    100,
		Interpolation: 3,
		SessionTTL:    60,
		MaxSessions:   256,
		LogLevel:      "info",
	}
}

// LoadConfig reads an XML config file over the defaults. Elements missing
// from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	xmlFile, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config %s: %w", path, err)
	}
	defer xmlFile.Close()

	if err := xml.NewDecoder(xmlFile).Decode(&cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// DSN 数据库连接串（postgres / mysql）
func (c Config) DSN() string {
	switch c.DBType {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.Username, c.Password, c.Host, c.Port, c.Dbname)
	default:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			c.Host, c.Username, c.Password, c.Dbname, c.Port)
	}
}

// SessionLifetime 会话空闲过期时间
func (c Config) SessionLifetime() time.Duration {
	if c.SessionTTL <= 0 {
		return time.Hour
	}
	return time.Duration(c.SessionTTL) * time.Minute
}

package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Port                  int           `yaml:"port"`
	LogLevel              string        `yaml:"log_level"`
	LogJSON               bool          `yaml:"log_json"`
	JwtTTL                time.Duration `yaml:"jwt_ttl"`
	PostsPerPage          int           `yaml:"posts_per_page"`
	MaxAttachmentSize     int64         `yaml:"max_attachment_size"` // bytes, per file
	AllowedImageMimeTypes []string      `yaml:"allowed_image_mime_types"`
	AllowedDocMimeTypes   []string      `yaml:"allowed_doc_mime_types"`
	CorsAllowedOrigins    []string      `yaml:"cors_allowed_origins"`
}

type Private struct {
	JwtKey string `yaml:"jwt_key"`
	Pg     Pg     `yaml:"pg"`
	Email  Email  `yaml:"email"`
	Blob   Blob   `yaml:"blob"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Email struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	SenderName string `yaml:"sender_name"`
	Timeout    int    `yaml:"timeout"` // seconds
}

type Blob struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

func (s *Config) JwtKey() string {
	return s.Private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	return s.Public.JwtTTL
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	// secrets may come from the environment instead of private.yaml
	if v := os.Getenv("IDEAHUB_PG_PASSWORD"); v != "" {
		private.Pg.Password = v
	}
	if v := os.Getenv("IDEAHUB_SMTP_PASSWORD"); v != "" {
		private.Email.Password = v
	}
	if v := os.Getenv("IDEAHUB_BLOB_SECRET_KEY"); v != "" {
		private.Blob.SecretKey = v
	}
	if v := os.Getenv("IDEAHUB_JWT_KEY"); v != "" {
		private.JwtKey = v
	}

	return &Config{public, private}
}

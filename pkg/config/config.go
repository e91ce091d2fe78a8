package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

var (
	config = newViper()
	once   sync.Once
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("MD2DOCX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Init 初始化配置，配置文件不存在时使用默认值
func Init(configFiles ...string) error {
	var err error
	once.Do(func() {
		configFile := "config.yaml"
		if len(configFiles) > 0 && configFiles[0] != "" {
			configFile = configFiles[0]
		}
		config.SetConfigFile(configFile)

		// 读取配置文件
		if err = config.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
				err = nil
				return
			}
			err = fmt.Errorf("%w: read config file failed: %v", ErrInvalidConfig, err)
			return
		}

		// 监听配置文件变化
		config.WatchConfig()
	})
	return err
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.node_id", 1)
	v.SetDefault("server.app_name", "md2docx")
	v.SetDefault("server.body_limit", 8*1024*1024)

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "md2docx")
	v.SetDefault("database.path", "data/md2docx.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 3600)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.pool_size", 10)
	v.SetDefault("cache.prefix", "md2docx:")
	v.SetDefault("cache.ttl", 3600)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", false)
	v.SetDefault("log.filename", "logs/app.log")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("log.compress", true)

	v.SetDefault("security.allowed_origins", "*")
	v.SetDefault("security.api_keys", []string{})

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.max_requests", 1000)
	v.SetDefault("rate_limit.duration", 3600)

	v.SetDefault("docgen.default_organisation", "AI Safety Net")
	v.SetDefault("docgen.default_accent_color", "1B2A4A")
	v.SetDefault("docgen.max_markdown_bytes", 2*1024*1024)
}

// Get 获取配置值
func Get(key string) interface{} {
	return config.Get(key)
}

// GetString 获取字符串配置值
func GetString(key string) string {
	return config.GetString(key)
}

// GetInt 获取整数配置值
func GetInt(key string) int {
	return config.GetInt(key)
}

// GetInt64 获取64位整数配置值
func GetInt64(key string) int64 {
	return config.GetInt64(key)
}

// GetUint64 获取64位无符号整数配置值
func GetUint64(key string) uint64 {
	return config.GetUint64(key)
}

// GetBool 获取布尔配置值
func GetBool(key string) bool {
	return config.GetBool(key)
}

// GetStringSlice 获取字符串切片配置值
func GetStringSlice(key string) []string {
	return config.GetStringSlice(key)
}

// Set 设置配置值
func Set(key string, value interface{}) {
	config.Set(key, value)
}

// IsSet 检查配置值是否已设置
func IsSet(key string) bool {
	return config.IsSet(key)
}

// GetDSN 获取数据库连接字符串
func GetDSN() (string, error) {
	dbType := strings.ToLower(GetString("database.type"))
	switch dbType {
	case "sqlite", "":
		path := GetString("database.path")
		if path == "" {
			return "", fmt.Errorf("%w: database.path is empty", ErrInvalidDatabaseConfig)
		}
		return path, nil
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			GetString("database.host"),
			GetInt("database.port"),
			GetString("database.user"),
			GetString("database.password"),
			GetString("database.dbname"),
		), nil
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			GetString("database.user"),
			GetString("database.password"),
			GetString("database.host"),
			GetInt("database.port"),
			GetString("database.dbname"),
		), nil
	default:
		return "", fmt.Errorf("%w: unsupported database type %q", ErrInvalidDatabaseConfig, dbType)
	}
}

// GetServerAddress 获取服务器地址
func GetServerAddress() string {
	return fmt.Sprintf(":%d", GetInt("server.port"))
}

// GetRedisAddress 获取Redis地址
func GetRedisAddress() string {
	return fmt.Sprintf("%s:%d", GetString("cache.redis.host"), GetInt("cache.redis.port"))
}

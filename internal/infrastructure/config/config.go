package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	LLM       LLMConfig       `mapstructure:"llm"`
	TMDB      TMDBConfig      `mapstructure:"tmdb"`
	Proxy     ProxyConfig     `mapstructure:"proxy"`
	Category  []CategoryRule  `mapstructure:"category"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Job       JobConfig       `mapstructure:"job"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	Output    string `mapstructure:"output"`
	FilePath  string `mapstructure:"file_path"`
	AddSource bool   `mapstructure:"add_source"`
}

type LLMConfig struct {
	APIKey    string  `mapstructure:"api_key"`
	BaseURL   string  `mapstructure:"base_url"`
	Model     string  `mapstructure:"model"`
	BatchSize int     `mapstructure:"batch_size"`
	RateLimit float64 `mapstructure:"rate_limit"` // 每秒请求数
}

type TMDBConfig struct {
	APIKey         string   `mapstructure:"api_key"`
	Languages      []string `mapstructure:"languages"` // 有序，第一个为默认搜索语言
	RateLimit      int      `mapstructure:"rate_limit"`
	MaxSearchPages int      `mapstructure:"max_search_pages"`
}

type ProxyConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// Addr 返回 host:port，未配置代理时返回空串
func (p ProxyConfig) Addr() string {
	if p.Host == "" || p.Port == "" {
		return ""
	}
	return p.Host + ":" + p.Port
}

// CategoryRule 分类规则
// 规则按声明顺序求值，首个命中者生效；无条件规则作为兜底分类
type CategoryRule struct {
	Name             string `mapstructure:"name"`
	GenreIDs         string `mapstructure:"genre_ids"`         // 逗号分隔，支持 X-Y 区间与 !X 排除
	OriginCountry    string `mapstructure:"origin_country"`    // 逗号分隔国家码
	OriginalLanguage string `mapstructure:"original_language"` // 逗号分隔语言码
	ReleaseYear      string `mapstructure:"release_year"`      // 逗号分隔年份或区间
}

type TelegramConfig struct {
	Enabled  bool    `mapstructure:"enabled"`
	BotToken string  `mapstructure:"bot_token"`
	ChatIDs  []int64 `mapstructure:"chat_ids"`
}

type SchedulerConfig struct {
	Enabled bool            `mapstructure:"enabled"`
	Tasks   []ScheduledTask `mapstructure:"tasks"`
}

type ScheduledTask struct {
	Name        string `mapstructure:"name"`         // 任务名称
	Enabled     bool   `mapstructure:"enabled"`      // 是否启用
	Cron        string `mapstructure:"cron"`         // cron表达式，如 "0 2 * * *" 每天凌晨2点
	InputDir    string `mapstructure:"input_dir"`    // 待整理目录
	OutputDir   string `mapstructure:"output_dir"`   // 媒体库目录
	AutoExecute bool   `mapstructure:"auto_execute"` // 预览完成后是否自动执行
}

type JobConfig struct {
	TTLHours int `mapstructure:"ttl_hours"` // 任务记录保留时长
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("log.output", "stdout")

	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.batch_size", 20)
	viper.SetDefault("llm.rate_limit", 1.0)

	viper.SetDefault("tmdb.languages", []string{"zh-CN", "zh-TW", "en-US"})
	viper.SetDefault("tmdb.rate_limit", 10)
	viper.SetDefault("tmdb.max_search_pages", 5)

	viper.SetDefault("telegram.enabled", false)

	viper.SetDefault("scheduler.enabled", false)
	viper.SetDefault("scheduler.tasks", []ScheduledTask{})

	viper.SetDefault("job.ttl_hours", 24)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate 校验必填配置
func (c *Config) Validate() error {
	if c.TMDB.APIKey == "" {
		return fmt.Errorf("tmdb.api_key is required")
	}
	if len(c.TMDB.Languages) == 0 {
		return fmt.Errorf("tmdb.languages must not be empty")
	}
	if c.LLM.BatchSize <= 0 {
		return fmt.Errorf("llm.batch_size must be positive")
	}
	return nil
}

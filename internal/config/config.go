package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/pavanmanishd/memheap"
)

var (
	config   *viper.Viper
	once     sync.Once
	mu       sync.Mutex
	onChange []func()

	// notices receives config loading messages. The process logger is
	// configured from this package, so it cannot be used here.
	notices io.Writer = os.Stderr
)

// Init loads heapsim.yml from path, or from ./conf/ and ./ when path is empty.
// A missing file falls back to the defaults.
func Init(path string) {
	once.Do(func() {
		initialize(path)
	})
}

func initialize(path string) {
	config = viper.New()
	setDefaults(config)
	if path != "" {
		config.SetConfigFile(path)
	} else {
		config.SetConfigName("heapsim")
		config.AddConfigPath("./conf/")
		config.AddConfigPath("./")
		config.SetConfigType("yml")
	}
	config.AutomaticEnv()
	replacer := strings.NewReplacer(".", "_")
	config.SetEnvKeyReplacer(replacer)

	if err := config.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			fmt.Fprintln(notices, "config file not found use default config")
			return
		}
		fmt.Fprintln(notices, "config file error:", err)
		return
	}
	config.OnConfigChange(func(e fsnotify.Event) {
		fmt.Fprintln(notices, "Config file changed:", e.Name)
		mu.Lock()
		hooks := append([]func(){}, onChange...)
		mu.Unlock()
		for _, fn := range hooks {
			fn()
		}
	})
	config.WatchConfig()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("heap.size", memheap.DefaultHeapSize)
	v.SetDefault("heap.base", uint32(memheap.DefaultBase))
	v.SetDefault("heap.mmap", false)
	v.SetDefault("heap.trace", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output", "stderr")
}

// OnChange registers fn to run after the config file is rewritten.
func OnChange(fn func()) {
	mu.Lock()
	defer mu.Unlock()
	onChange = append(onChange, fn)
}

func Get(key string) interface{} {
	return config.Get(key)
}

func GetString(key string) string {
	return config.GetString(key)
}

func GetBool(key string) bool {
	return config.GetBool(key)
}

func GetInt(key string) int {
	return config.GetInt(key)
}

func GetUint32(key string) uint32 {
	return config.GetUint32(key)
}

// Heap holds the heap settings of the simulator.
type Heap struct {
	Size  int
	Base  memheap.Addr
	Mmap  bool
	Trace bool
}

// HeapConfig reads the heap.* keys.
func HeapConfig() Heap {
	return Heap{
		Size:  GetInt("heap.size"),
		Base:  memheap.Addr(GetUint32("heap.base")),
		Mmap:  GetBool("heap.mmap"),
		Trace: GetBool("heap.trace"),
	}
}

/*
 * Copyright 2024 caiflower Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package multipart

import (
	"github.com/caiflower/http-message/pkg/logger"
	"github.com/caiflower/http-message/pkg/tools"
)

type Options struct {
	TmpDir       string `yaml:"tmpDir"` // 为空时使用 os.TempDir()
	TmpPrefix    string `yaml:"tmpPrefix" default:"upload_"`
	TmpSuffix    string `yaml:"tmpSuffix" default:".tmp"`
	EnableMetric bool   `yaml:"enableMetric"`

	Logger logger.ILog `yaml:"-"`
}

type Option func(*Options) *Options

func NewOptions(opts ...Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		options = opt(options)
	}
	return applyDefaults(options)
}

// LoadOptions reads options from a yaml file.
func LoadOptions(filename string, opts ...Option) (*Options, error) {
	options := &Options{}
	if err := tools.LoadConfig(filename, options); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		options = opt(options)
	}
	return applyDefaults(options), nil
}

func applyDefaults(options *Options) *Options {
	_ = tools.DoTagFunc(options, tools.SetDefaultValueIfNil)
	if options.Logger == nil {
		options.Logger = logger.DefaultLogger()
	}
	return options
}

func WithTmpDir(dir string) Option {
	return func(opts *Options) *Options {
		opts.TmpDir = dir
		return opts
	}
}

func WithTmpPrefix(prefix string) Option {
	return func(opts *Options) *Options {
		opts.TmpPrefix = prefix
		return opts
	}
}

func WithLogger(log logger.ILog) Option {
	return func(opts *Options) *Options {
		opts.Logger = log
		return opts
	}
}

func WithMetric(enable bool) Option {
	return func(opts *Options) *Options {
		opts.EnableMetric = enable
		return opts
	}
}

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
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	kindField     = "field"
	kindFile      = "file"
	kindEmptyFile = "empty_file"
	kindSkipped   = "skipped"
)

type metric struct {
	partTotal    *prometheus.CounterVec
	tmpFileBytes prometheus.Counter
}

var (
	defaultMetric *metric
	metricOnce    sync.Once
)

func getMetric() *metric {
	metricOnce.Do(func() {
		defaultMetric = &metric{
			partTotal:    prometheus.NewCounterVec(prometheus.CounterOpts{Name: "http_message_multipart_parts_total", Help: "multipart parts by outcome"}, []string{"kind"}),
			tmpFileBytes: prometheus.NewCounter(prometheus.CounterOpts{Name: "http_message_multipart_tmp_file_bytes_total", Help: "bytes written to upload temp files"}),
		}
		_ = prometheus.Register(defaultMetric.partTotal)
		_ = prometheus.Register(defaultMetric.tmpFileBytes)
	})
	return defaultMetric
}

func (m *metric) part(kind string) {
	if m == nil {
		return
	}
	m.partTotal.WithLabelValues(kind).Inc()
}

func (m *metric) written(n int) {
	if m == nil {
		return
	}
	m.tmpFileBytes.Add(float64(n))
}

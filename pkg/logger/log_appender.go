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

package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/caiflower/http-message/pkg/tools"
)

type Appender interface {
	write(data data)
	close()
}

var levelColors = map[string]*color.Color{
	TraceLevel: color.New(color.FgWhite, color.Bold),
	DebugLevel: color.New(color.FgCyan, color.Bold),
	InfoLevel:  color.New(color.FgGreen, color.Bold),
	WarnLevel:  color.New(color.FgYellow, color.Bold),
	ErrorLevel: color.New(color.FgRed, color.Bold),
	FatalLevel: color.New(color.FgRed, color.Bold),
}

type logAppender struct {
	timeFormat  string
	enableColor bool

	bufPool   sync.Pool
	writeLock sync.Mutex
	out       io.Writer
	logFile   *os.File
}

func newLogAppender(timeFormat, path, fileName string, enableColor bool) Appender {
	appender := &logAppender{
		timeFormat: timeFormat,
		bufPool: sync.Pool{
			New: func() interface{} {
				return new(strings.Builder)
			}},
		enableColor: enableColor,
		out:         os.Stdout,
	}

	if path != "" {
		if err := tools.Mkdir(path, 0755); err != nil {
			panic(fmt.Sprintf("[logger appender] mkdir err: %s\n", err))
		}
		f, err := os.OpenFile(filepath.Join(path, fileName), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			panic(fmt.Sprintf("[logger appender] open logfile err: %s\n", err))
		}
		appender.logFile = f
		appender.out = f
		// no escape codes in files
		appender.enableColor = false
	}

	return appender
}

func (appender *logAppender) format(d data) string {
	level := d.level
	if appender.enableColor {
		if c, ok := levelColors[level]; ok {
			level = c.Sprint(level)
		}
	}

	buf := appender.bufPool.Get().(*strings.Builder)
	defer func() {
		buf.Reset()
		appender.bufPool.Put(buf)
	}()
	buf.WriteString(d.timestamp.Format(appender.timeFormat))
	buf.WriteString(" [")
	buf.WriteString(level)
	buf.WriteString("] ")
	buf.WriteString(d.position)
	buf.WriteString(" - ")
	buf.WriteString(d.content)
	buf.WriteByte('\n')
	return buf.String()
}

func (appender *logAppender) write(d data) {
	line := appender.format(d)

	appender.writeLock.Lock()
	defer appender.writeLock.Unlock()
	if _, err := io.WriteString(appender.out, line); err != nil {
		fmt.Printf("[ERROR] - output err %s\n", err.Error())
	}
}

func (appender *logAppender) close() {
	appender.writeLock.Lock()
	defer appender.writeLock.Unlock()
	if appender.logFile != nil {
		if err := appender.logFile.Close(); err != nil {
			fmt.Printf("[logger appender] close logfile err: %s\n", err)
		}
		appender.logFile = nil
		appender.out = io.Discard
	}
}

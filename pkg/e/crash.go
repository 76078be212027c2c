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

package e

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"
)

// OnError recovers a panic in the calling goroutine and reports it to stderr
// with the stack. It must be deferred directly.
func OnError(txt string) {
	if r := recover(); r != nil {
		fmt.Fprintf(os.Stderr, "%s [ERROR] - recovered panic in %s: %v\n%s", time.Now().Format("2006-01-02 15:04:05"), txt, r, debug.Stack())
	}
}

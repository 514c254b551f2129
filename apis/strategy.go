/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package apis

// FetchStrategy is a pluggable resolution step in a Fetcher's chain
// (§4.6's fetch pipeline: cache -> store -> construct). It returns
// (impl, true) if it resolved the method; otherwise (nil, false) to fall
// through to the next strategy.
type FetchStrategy interface {
	TryFetch(methodID MethodID, query string) (Implementation, bool, error)
}

/*

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

package charm

// Result encapsulates the outcome of handling an event.
type Result struct {
	status Status
	err    error
}

// Err returns any error associated with the result.
func (r Result) Err() error {
	return r.err
}

// Status returns the unit status set while handling the event. It is
// the zero Status if the handler did not set one.
func (r Result) Status() Status {
	return r.status
}

var (
	// Done represents a result that is complete without a status change.
	Done = Result{}
)

func withStatus(s Status) Result {
	return Result{status: s}
}

func failed(err error) Result {
	return Result{err: err}
}

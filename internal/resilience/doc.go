/*
Package resilience wraps API operations with loading tracking, retries and
uniform failure reporting.

# Components

  - Classify: turns any error into a *ClassifiedError (code, message, details, timestamp, hint)
  - Retry: re-runs an operation with exponential backoff (Delay * 2^attempt)
  - LoadingRegistry: one in-flight flag per key, with change notifications
  - Run: the composition of the three, returning a Result instead of an error

# Classification

Structured error bodies keep their code, message and details. Decode
failures become DECODE_ERROR. Any other error with a message becomes
NETWORK_ERROR, and anything left is UNKNOWN_ERROR with the message 未知错误.

# Example Usage

	h := resilience.NewHandler(resilience.NewLoadingRegistry(), resilience.LogNotifier{Logger: logger})

	res := resilience.Run(ctx, h, func(ctx context.Context) (*types.Page[types.User], error) {
		return svc.Users.List(ctx, types.PaginationParams{Size: 10})
	}, resilience.Options{LoadingKey: "users", Retries: 2})
	if !res.OK() {
		return res.Err
	}
*/
package resilience

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

// errNoTransports means neither SERVER_HTTP_ADDRESS nor SERVER_GRPC_ADDRESS
// was set, so the store server would have nothing to serve.
var errNoTransports = errors.New("no transport configured: set an http or grpc address")

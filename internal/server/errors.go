// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var errNoListeners = errors.New("no listeners: both http and grpc handlers are nil")

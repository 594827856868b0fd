// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package loss provides a spatially dense multinomial logistic loss for
// segmentation-style training.
//
// # Overview
//
// The layer consumes softmax probabilities of shape [N, C, H, W] and labels
// of shape [N, 1, H, W] holding one class id per pixel. It supports:
//   - an ignore label that masks pixels out of loss and gradient
//   - per-class weights keyed by the true label
//   - normalization by valid pixel count or by batch size
//
// # Basic Usage
//
//	cfg := loss.DefaultConfig().WithIgnoreLabel(255)
//	layer, err := loss.New[float32](cfg, prob.Shape(), label.Shape())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := layer.Forward(prob, label, loss.ForwardOptions{})
//	grad, err := layer.Backward(prob, label, 1, loss.Propagate{Prob: true})
//
// All setup and shape errors wrap one of the Err* values and are meant to
// abort training: they signal a misconfigured network, not bad data.
package loss

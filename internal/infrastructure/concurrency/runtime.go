// Package concurrency sizes concurrent work to the runtime the process is
// deployed on.
//
// Lambda gives each instance a fixed memory allocation and scales vCPU with
// it (about one vCPU at 1769 MB), so in-flight work is kept small there. ECS
// and local runs size by CPU count.
package concurrency

import (
	"os"
	"runtime"
	"strconv"
)

// RuntimeEnvironment represents the deployment environment
type RuntimeEnvironment string

const (
	EnvironmentLambda RuntimeEnvironment = "lambda"
	EnvironmentECS    RuntimeEnvironment = "ecs"
	EnvironmentLocal  RuntimeEnvironment = "local"
)

// DetectEnvironment detects the runtime environment from well-known variables
func DetectEnvironment() RuntimeEnvironment {
	if _, exists := os.LookupEnv("AWS_LAMBDA_FUNCTION_NAME"); exists {
		return EnvironmentLambda
	}
	if _, exists := os.LookupEnv("ECS_CONTAINER_METADATA_URI"); exists {
		return EnvironmentECS
	}
	if _, exists := os.LookupEnv("ECS_CONTAINER_METADATA_URI_V4"); exists {
		return EnvironmentECS
	}
	return EnvironmentLocal
}

// LambdaMemoryMB returns the configured memory of the Lambda function
func LambdaMemoryMB() int {
	mem, err := strconv.Atoi(os.Getenv("AWS_LAMBDA_FUNCTION_MEMORY_SIZE"))
	if err != nil || mem <= 0 {
		return 512
	}
	return mem
}

// MaxInFlight returns how many emissions may run at once in env. Emissions
// are I/O bound (one parameter read at most, one object write).
func MaxInFlight(env RuntimeEnvironment) int {
	switch env {
	case EnvironmentLambda:
		memoryMB := LambdaMemoryMB()
		switch {
		case memoryMB < 512:
			return 2
		case memoryMB < 1024:
			return 4
		case memoryMB < 1769:
			return 8
		default:
			return 16
		}

	case EnvironmentECS:
		workers := runtime.NumCPU() * 8
		if workers > 64 {
			return 64
		}
		return workers

	default:
		workers := runtime.NumCPU() * 4
		if workers < 8 {
			return 8
		}
		if workers > 32 {
			return 32
		}
		return workers
	}
}

package cost

import (
	"context"
	"fmt"

	"github.com/de-tools/iac-cost/pkg/models/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const secondsPerMonth = domain.HoursPerMonth * 3600

var printer = message.NewPrinter(language.English)

// containerAppCost prices an always-on container app on the consumption
// plan: minReplicas instances running all month, less the monthly free grant.
func (c *Calculator) containerAppCost(ctx context.Context, r domain.ResourceDescriptor, location string) *domain.ResourceCost {
	cpu := quantity(r.Properties.Get("cpu"), 0.5)
	memory := memoryGiB(r.Properties.Get("memory"), 1)
	minReplicas := integer(r.Properties.Get("minReplicas"), 1)

	vcpuRate, memoryRate := c.rates.VCPUSecond, c.rates.MemoryGiBSecond
	rates, err := c.prices.GetContainerAppsRates(ctx, location)
	switch {
	case err != nil:
		catalogUnavailable(ctx, "container apps", err)
	case rates != nil:
		if rates.VCPUPerSecond > 0 {
			vcpuRate = rates.VCPUPerSecond
		}
		if rates.MemoryPerGiBSecond > 0 {
			memoryRate = rates.MemoryPerGiBSecond
		}
	}

	vcpuSeconds := max(0, cpu*secondsPerMonth*float64(minReplicas)-c.rates.FreeVCPUSeconds)
	gibSeconds := max(0, memory*secondsPerMonth*float64(minReplicas)-c.rates.FreeGiBSeconds)
	monthly := vcpuSeconds*vcpuRate + gibSeconds*memoryRate

	return lineItem(r, fmt.Sprintf("%s vCPU, %sGi", decimal(cpu), decimal(memory)), location, monthly,
		"Consumption plan",
		fmt.Sprintf("%d min replica(s)", minReplicas),
		fmt.Sprintf("Free grant: %gK vCPU-sec, %gK GiB-sec/month", c.rates.FreeVCPUSeconds/1000, c.rates.FreeGiBSeconds/1000),
	)
}

type workloadProfile struct {
	vcpu   int
	memory int
	hourly float64
}

var workloadProfiles = map[string]workloadProfile{
	"D4":  {vcpu: 4, memory: 16, hourly: 0.12},
	"D8":  {vcpu: 8, memory: 32, hourly: 0.24},
	"D16": {vcpu: 16, memory: 64, hourly: 0.48},
	"D32": {vcpu: 32, memory: 128, hourly: 0.96},
	"E4":  {vcpu: 4, memory: 32, hourly: 0.15},
	"E8":  {vcpu: 8, memory: 64, hourly: 0.30},
	"E16": {vcpu: 16, memory: 128, hourly: 0.60},
}

// environmentCost is zero for consumption environments, whose usage is billed
// on the apps. Dedicated environments pay per workload profile instance.
func (c *Calculator) environmentCost(_ context.Context, r domain.ResourceDescriptor, location string) *domain.ResourceCost {
	if text(r.Properties.Get("planType"), "Consumption") != "Dedicated" {
		return lineItem(r, "Consumption", location, 0, "Container Apps Environment - included in app consumption costs")
	}

	profileType := text(r.Properties.Get("profileType"), "D4")
	profile, ok := workloadProfiles[profileType]
	if !ok {
		profile = workloadProfiles["D4"]
	}

	rc := lineItem(r, fmt.Sprintf("Dedicated (%s)", profileType), location, profile.hourly*domain.HoursPerMonth,
		fmt.Sprintf("%d vCPU, %d GiB per instance", profile.vcpu, profile.memory),
		"Fixed management fee included",
		"Per-instance pricing",
	)
	rc.HourlyCost = profile.hourly
	return rc
}

// functionAppCost estimates a consumption-plan function app from a fixed
// monthly workload, which stays inside the free grant with default rates.
func (c *Calculator) functionAppCost(ctx context.Context, r domain.ResourceDescriptor, location string) *domain.ResourceCost {
	executionPrice, gbSecondPrice := c.rates.FunctionExecutionPerMillion, c.rates.FunctionGBSecond
	source := defaultPricing

	rates, err := c.prices.GetFunctionAppPrices(ctx, location)
	switch {
	case err != nil:
		catalogUnavailable(ctx, "functions", err)
	case rates != nil && (rates.ExecutionPerMillion > 0 || rates.GBSecond > 0):
		if rates.ExecutionPerMillion > 0 {
			executionPrice = rates.ExecutionPerMillion
		}
		if rates.GBSecond > 0 {
			gbSecondPrice = rates.GBSecond
		}
		source = apiPricing
	}

	executions := c.rates.FunctionExecutions
	billable := max(0, executions-c.rates.FunctionFreeExecutions)
	executionCost := billable / 1_000_000 * executionPrice

	gbSeconds := executions * c.rates.FunctionDurationSeconds * c.rates.FunctionMemoryGB
	timeCost := 0.0
	if gbSeconds > c.rates.FunctionFreeGBSeconds {
		timeCost = (gbSeconds - c.rates.FunctionFreeGBSeconds) * gbSecondPrice
	}

	return lineItem(r, "Consumption", location, executionCost+timeCost,
		"Consumption plan",
		printer.Sprintf("Est. %d executions/month", int64(executions)),
		"First 1M executions free",
		"First 400K GB-s free",
		source,
	)
}

type jobSchedule struct {
	runs    int
	seconds int
}

var jobSchedules = map[string]jobSchedule{
	"Schedule": {runs: 30, seconds: 300},
	"Event":    {runs: 100, seconds: 60},
}

var manualJob = jobSchedule{runs: 10, seconds: 300}

// containerJobCost bills only the estimated execution time; jobs get no free grant.
func (c *Calculator) containerJobCost(_ context.Context, r domain.ResourceDescriptor, location string) *domain.ResourceCost {
	cpu := quantity(r.Properties.Get("cpu"), 0.25)
	memory := memoryGiB(r.Properties.Get("memory"), 0.5)
	trigger := text(r.Properties.Get("triggerType"), "Manual")

	schedule, ok := jobSchedules[trigger]
	if !ok {
		schedule = manualJob
	}
	total := float64(schedule.runs * schedule.seconds)
	monthly := cpu*c.rates.VCPUSecond*total + memory*c.rates.MemoryGiBSecond*total

	return lineItem(r, fmt.Sprintf("%s vCPU, %sGi", decimal(cpu), decimal(memory)), location, monthly,
		fmt.Sprintf("%s trigger", trigger),
		fmt.Sprintf("Est. %d runs/month", schedule.runs),
		fmt.Sprintf("Est. %ds per run", schedule.seconds),
	)
}

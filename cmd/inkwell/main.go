// Command inkwell trains a convolutional network on MNIST digits and
// reports loss/accuracy curves plus final test metrics.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/inkwell-ml/inkwell/internal/mnist"
	"github.com/inkwell-ml/inkwell/internal/nn"
	"github.com/inkwell-ml/inkwell/internal/optim"
	"github.com/inkwell-ml/inkwell/internal/report"
	"github.com/inkwell-ml/inkwell/internal/tensor"
	"github.com/inkwell-ml/inkwell/internal/train"
)

// Pipeline configuration. These mirror the experiment this command
// reproduces and are deliberately constants, not flags.
const (
	epochs          = 20
	batchSize       = 32
	validationSplit = 0.1
	shuffle         = true
	optimizerName   = "adam"
	patience        = 3

	weightSeed = 2 // parameter initialization
	dataSeed   = 1 // shuffling and synthetic data
)

func main() {
	dataDir := flag.String("data", "./data", "Directory containing MNIST IDX files")
	outDir := flag.String("out", ".", "Directory for rendered PNG figures")
	useSynthetic := flag.Bool("synthetic", false, "Use synthetic data (for testing without MNIST files)")
	synthSamples := flag.Int("samples", 2000, "Synthetic sample count (with -synthetic)")
	flag.Parse()

	fmt.Println("🚀 Inkwell - MNIST CNN Classification")

	dataRng := rand.New(rand.NewSource(dataSeed))
	weightRng := rand.New(rand.NewSource(weightSeed))

	// Load MNIST data
	var trainSet, testSet *mnist.Dataset
	if *useSynthetic {
		fmt.Println("\n📊 Using synthetic data (embedded test patterns)...")
		trainSet = mnist.Synthetic(*synthSamples, dataRng)
		testSet = mnist.Synthetic(*synthSamples/5, dataRng)
	} else {
		fmt.Printf("\n📊 Loading MNIST data from: %s\n", *dataDir)
		var err error
		trainSet, testSet, err = mnist.Load(*dataDir)
		if err != nil {
			fmt.Println("\n❌ Error: MNIST data files could not be loaded!")
			fmt.Println("\nTo download the MNIST dataset:")
			fmt.Println("  1. Create a 'data' directory: mkdir data")
			fmt.Println("  2. Download the four IDX files (train/t10k images and labels)")
			fmt.Println("  3. Place them (optionally gzipped) in the data directory")
			fmt.Println("\nOr run with -synthetic to use generated test patterns.")
			log.Fatalf("load: %v", err)
		}
	}
	fmt.Printf("   Train: %d samples, Test: %d samples\n", len(trainSet.Images), len(testSet.Images))

	// Preprocess: normalize once per split, one-hot encode the labels.
	trainImages, err := mnist.Normalize(trainSet.Images)
	if err != nil {
		log.Fatalf("normalize training images: %v", err)
	}
	testImages, err := mnist.Normalize(testSet.Images)
	if err != nil {
		log.Fatalf("normalize test images: %v", err)
	}
	trainLabels, err := mnist.OneHot(trainSet.Labels, mnist.NumClasses)
	if err != nil {
		log.Fatalf("encode training labels: %v", err)
	}
	testLabels, err := mnist.OneHot(testSet.Labels, mnist.NumClasses)
	if err != nil {
		log.Fatalf("encode test labels: %v", err)
	}
	fmt.Printf("   Training inputs %v float32, test inputs %v float32\n",
		trainImages.Shape(), testImages.Shape())
	fmt.Printf("   Training targets %v, test targets %v\n",
		trainLabels.Shape(), testLabels.Shape())

	gridPath := filepath.Join(*outDir, "samples.png")
	if err := report.SampleGrid(trainSet, 2, 10, gridPath); err != nil {
		log.Fatalf("sample grid: %v", err)
	}
	fmt.Printf("   Wrote sample grid: %s\n", gridPath)

	// Build the model.
	fmt.Println("\n🧠 Building the network...")
	model, err := buildModel(weightRng)
	if err != nil {
		log.Fatalf("build model: %v", err)
	}
	fmt.Println(model.Summary())

	// Train.
	fmt.Println("⚙️  Training...")
	earlyStop := train.NewEarlyStopping(patience)
	logHook := func(_ *nn.Sequential, m train.EpochMetrics) bool {
		fmt.Println(report.EpochLine(m, epochs))
		return false
	}

	history, err := train.Fit(model, trainImages, trainLabels, train.Config{
		Epochs:          epochs,
		BatchSize:       batchSize,
		ValidationSplit: validationSplit,
		Shuffle:         shuffle,
		Optimizer:       mustOptimizer(optimizerName),
		Rand:            dataRng,
		Hooks:           []train.Hook{logHook, earlyStop.AfterEpoch},
	})
	if err != nil {
		log.Fatalf("training: %v", err)
	}
	if earlyStop.Stopped() {
		fmt.Printf("Early stopping after epoch %d; restored weights from epoch %d (val_loss %.4f)\n",
			history.Len(), earlyStop.BestEpoch(), earlyStop.BestLoss())
	}

	// Curves.
	lossPath := filepath.Join(*outDir, "loss.png")
	if err := report.LossCurves(history, lossPath); err != nil {
		log.Fatalf("loss curves: %v", err)
	}
	accPath := filepath.Join(*outDir, "accuracy.png")
	if err := report.AccuracyCurves(history, accPath); err != nil {
		log.Fatalf("accuracy curves: %v", err)
	}
	fmt.Printf("\nWrote figures: %s, %s\n\n", lossPath, accPath)

	// Final evaluation on the held-out test split.
	testLoss, testAcc, err := train.Evaluate(model, testImages, testLabels, batchSize)
	if err != nil {
		log.Fatalf("evaluation: %v", err)
	}
	report.TestMetrics(os.Stdout, testLoss, testAcc)
	report.FinalSummary(os.Stdout, history, testAcc)
}

// buildModel assembles the convolutional stack. Convolutions default to
// valid padding; two carry same padding to preserve spatial size.
func buildModel(rng *rand.Rand) (*nn.Sequential, error) {
	return nn.NewSequential(tensor.Shape{mnist.ImageRows, mnist.ImageCols, 1},
		nn.NewConv2D(1, 32, 3, nn.Same, rng),
		nn.NewReLU(),
		nn.NewBatchNorm(32),
		nn.NewConv2D(32, 32, 3, nn.Valid, rng),
		nn.NewReLU(),
		nn.NewBatchNorm(32),
		nn.NewConv2D(32, 32, 5, nn.Valid, rng),
		nn.NewReLU(),
		nn.NewMaxPool2D(2, 2),
		nn.NewBatchNorm(32),
		nn.NewDropout(0.4, rng),
		nn.NewConv2D(32, 64, 3, nn.Valid, rng),
		nn.NewReLU(),
		nn.NewBatchNorm(64),
		nn.NewConv2D(64, 64, 3, nn.Valid, rng),
		nn.NewReLU(),
		nn.NewBatchNorm(64),
		nn.NewConv2D(64, 64, 5, nn.Same, rng),
		nn.NewReLU(),
		nn.NewBatchNorm(64),
		nn.NewMaxPool2D(2, 2),
		nn.NewDropout(0.4, rng),
		nn.NewFlatten(),
		nn.NewDense(3*3*64, 128, rng),
		nn.NewReLU(),
		nn.NewBatchNorm(128),
		nn.NewDropout(0.4, rng),
		nn.NewBatchNorm(128),
		nn.NewDense(128, mnist.NumClasses, rng),
		nn.NewSoftmax(),
	)
}

func mustOptimizer(name string) optim.Optimizer {
	opt, err := optim.ByName(name)
	if err != nil {
		log.Fatalf("optimizer: %v", err)
	}
	return opt
}
